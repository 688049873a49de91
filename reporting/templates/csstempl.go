package templates

// CSStempl is our css template sheet
var CSStempl = []byte(`body {
  margin: 0;
  background-color: #fafafa;
}

h1 {
  color: #000;
  font-family: 'Lato', sans-serif;
  font-size: 32px;
  font-weight: 300;
  line-height: 58px;
  margin: 0 0 24px;
  text-indent: 30px;
}

ul {
  list-style-type: none;
  margin: 0;
  padding: 0;
  overflow: hidden;
  background-color: #000;
  font-family: "Arial", Helvetica, sans-serif;
}

li {
  float: left;
  border-right: 1px solid #bbb;
}

li:last-child {
  border-right: none;
}

li a {
  display: block;
  color: white;
  text-align: center;
  padding: 14px 16px;
  text-decoration: none;
}

li a:hover {
  background-color: #34C6CD;
}

div {
  font-family: 'Lucida Sans', Arial, sans-serif;
  font-size: 16px;
  line-height: 26px;
  margin: 0;
}

.info {
  margin: 10px 0px;
  padding: 12px;
  color: white;
  background-color: #333;
}

.figure {
  margin: 24px 30px;
  color: #333;
}

.figure img {
  max-width: 100%;
  border: 1px solid #ddd;
}

table {
  border-collapse: collapse;
  margin: 0 30px;
}

th, td {
  text-align: left;
  padding: 8px;
  color: #333;
}

tr:nth-child(even) {
  background-color: #f2f2f2
}
`)
